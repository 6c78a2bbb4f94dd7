package option

// standardOptions is the full RFC 2132 named-option set, tag numbers and
// encoding kind translated from pyke369/pdhcp's V4OPTIONS table.
var standardOptions = []Spec{
	{"subnet_mask", 1, KindIPv4},
	{"time_offset", 2, KindU32},
	{"router", 3, KindIPv4List},
	{"time_server", 4, KindIPv4List},
	{"name_server", 5, KindIPv4List},
	{"domain_name_server", 6, KindIPv4List},
	{"log_server", 7, KindIPv4List},
	{"cookie_server", 8, KindIPv4List},
	{"lpr_server", 9, KindIPv4List},
	{"impress_server", 10, KindIPv4List},
	{"resource_location_server", 11, KindIPv4List},
	{"host_name", 12, KindString},
	{"boot_file_size", 13, KindU16},
	{"merit_dump_file", 14, KindString},
	{"domain_name", 15, KindString},
	{"swap_server", 16, KindIPv4},
	{"root_path", 17, KindString},
	{"extensions_path", 18, KindString},
	{"ip_forwarding", 19, KindBool},
	{"non_local_source_routing", 20, KindBool},
	{"policy_filter", 21, KindIPv4List},
	{"max_datagram_reassembly_size", 22, KindU16},
	{"default_ip_ttl", 23, KindU8},
	{"path_mtu_aging_timeout", 24, KindU32},
	{"path_mtu_plateau_table", 25, KindBytes},
	{"interface_mtu", 26, KindU16},
	{"all_subnets_are_local", 27, KindBool},
	{"broadcast_address", 28, KindIPv4},
	{"perform_mask_discovery", 29, KindBool},
	{"mask_supplier", 30, KindBool},
	{"perform_router_discovery", 31, KindBool},
	{"router_solicitation_address", 32, KindIPv4},
	{"static_route", 33, KindIPv4List},
	{"trailer_encapsulation", 34, KindBool},
	{"arp_cache_timeout", 35, KindU32},
	{"ethernet_encapsulation", 36, KindBool},
	{"tcp_default_ttl", 37, KindU8},
	{"tcp_keepalive_interval", 38, KindU32},
	{"tcp_keepalive_garbage", 39, KindBool},
	{"network_information_service_domain", 40, KindString},
	{"network_information_servers", 41, KindIPv4List},
	{"ntp_servers", 42, KindIPv4List},
	{"vendor_specific_information", 43, KindBytes},
	{"netbios_over_tcpip_name_server", 44, KindIPv4List},
	{"netbios_over_tcpip_datagram_distribution_server", 45, KindIPv4List},
	{"netbios_over_tcpip_node_type", 46, KindU8},
	{"netbios_over_tcpip_scope", 47, KindString},
	{"x_window_system_font_server", 48, KindIPv4List},
	{"x_window_system_display_manager", 49, KindIPv4List},
	{"requested_ip_address", 50, KindIPv4},
	{"ip_address_lease_time", 51, KindU32},
	{"option_overload", 52, KindU8},
	{"message_type", 53, KindU8},
	{"server_identifier", 54, KindIPv4},
	{"parameter_request_list", 55, KindBytes},
	{"message", 56, KindString},
	{"maximum_dhcp_message_size", 57, KindU16},
	{"renewal_time_value", 58, KindU32},
	{"rebinding_time_value", 59, KindU32},
	{"vendor_class_identifier", 60, KindBytes},
	{"client_identifier", 61, KindBytes},
	{"network_information_service_plus_domain", 64, KindString},
	{"network_information_service_plus_servers", 65, KindIPv4List},
	{"tftp_server_name", 66, KindString},
	{"bootfile_name", 67, KindString},
	{"mobile_ip_home_agent", 68, KindIPv4List},
	{"smtp_server", 69, KindIPv4List},
	{"pop3_server", 70, KindIPv4List},
	{"nntp_server", 71, KindIPv4List},
	{"www_server", 72, KindIPv4List},
	{"finger_server", 73, KindIPv4List},
	{"irc_server", 74, KindIPv4List},
	{"streettalk_server", 75, KindIPv4List},
	{"street_talk_directory_assistance_server", 76, KindIPv4List},
	{"user_class_information", 77, KindBytes},
	{"slp_directory_agent", 78, KindBytes},
	{"slp_service_scope", 79, KindBytes},
	{"client_fqdn", 81, KindBytes},
	{"relay_agent_information", 82, KindBytes},
	{"nds_servers", 85, KindIPv4List},
	{"nds_tree_name", 86, KindString},
	{"nds_context", 87, KindString},
	{"bcmcs_controller_domain_name_list", 88, KindString},
	{"bcmcs_controller_ipv4_address_list", 89, KindIPv4List},
	{"authentication", 90, KindBytes},
	{"client_last_transaction_time", 91, KindU32},
	{"associated_ip", 92, KindIPv4List},
	{"client_system_architecture", 93, KindU16},
	{"client_network_interface_identifier", 94, KindBytes},
	{"ldap", 95, KindBytes},
	{"client_machine_identifier", 97, KindBytes},
	{"open_group_user_authentication", 98, KindString},
	{"autoconfigure", 116, KindU8},
	{"name_service_search", 117, KindBytes},
	{"subnet_selection", 118, KindIPv4},
	{"domain_search", 119, KindBytes},
	{"sip_servers", 120, KindBytes},
	{"classless_static_route", 121, KindBytes},
	{"cablelabs_client_configuration", 122, KindBytes},
	{"geoconf_civic", 123, KindBytes},
	{"vendor_identifying_vendor_class", 124, KindBytes},
	{"vendor_identifying_vendor_specific", 125, KindBytes},
	{"tftp_server_address", 150, KindIPv4List},
	{"status_code", 151, KindBytes},
	{"bulk_lease_query_base_time", 152, KindU32},
	{"bulk_lease_query_start_time_of_state", 153, KindU32},
	{"bulk_lease_query_state", 154, KindU8},
	{"bulk_lease_query_data_source", 155, KindU8},
	{"pcp_server", 158, KindBytes},
	{"portparams", 159, KindBytes},
	{"mudurl", 161, KindString},
	{"pxe_magic", 208, KindBytes},
	{"pxe_configfile", 209, KindString},
	{"pxe_pathprefix", 210, KindString},
	{"pxe_reboottime", 211, KindU32},
	{"option_6rd", 212, KindBytes},
	{"access_network_domain_name", 213, KindString},
	{"private_01", 224, KindBytes},
	{"private_02", 225, KindBytes},
	{"private_03", 226, KindBytes},
	{"private_04", 227, KindBytes},
	{"private_05", 228, KindBytes},
	{"private_06", 229, KindBytes},
	{"private_07", 230, KindBytes},
	{"private_08", 231, KindBytes},
	{"private_09", 232, KindBytes},
	{"private_10", 233, KindBytes},
	{"private_11", 234, KindBytes},
	{"private_12", 235, KindBytes},
	{"private_13", 236, KindBytes},
	{"private_14", 237, KindBytes},
	{"private_15", 238, KindBytes},
	{"private_16", 239, KindBytes},
	{"private_17", 240, KindBytes},
	{"private_18", 241, KindBytes},
	{"private_19", 242, KindBytes},
	{"private_20", 243, KindBytes},
	{"private_21", 244, KindBytes},
	{"private_22", 245, KindBytes},
	{"private_23", 246, KindBytes},
	{"private_24", 247, KindBytes},
	{"private_25", 248, KindBytes},
	{"private_26", 249, KindBytes},
	{"private_27", 250, KindBytes},
	{"private_28", 251, KindBytes},
	{"private_29", 252, KindBytes},
	{"private_30", 253, KindBytes},
	{"private_31", 254, KindBytes},
}
